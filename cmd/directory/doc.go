// Package main runs the yacen contact directory over gRPC.
//
// gRPC API (service yacen.directory.v1.Directory)
//
//	Publish(BytesValue{contact JSON}) -> Empty
//	    Store {"name","public_key"} for the caller. The request must be
//	    signed by the key being published.
//
//	Lookup(StringValue{fingerprint}) -> BytesValue{contact JSON}
//	    Return the contact whose public key has that fingerprint, or
//	    NOT_FOUND.
//
// Behaviour
//
//   - Every request carries an Ed25519 signature and public key in the
//     x-signature-bin and x-pubkey-bin headers. Unsigned or badly signed
//     requests fail with UNAUTHENTICATED. --trust restricts callers to a
//     fixed set of keys.
//   - Every successful response is signed with the server key, sent as
//     response headers. Clients pin the key printed at startup.
//   - Each caller key is rate limited (--rate, --burst); excess requests
//     fail with RESOURCE_EXHAUSTED.
//   - The server key is read from --key and created on first run.
//   - All contacts are held in memory and lost on process exit.
//   - Prometheus metrics are served on --metrics at /metrics.
package main
