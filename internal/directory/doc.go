// Package directory is a small gRPC contact directory.
//
// Users publish their name and Ed25519 public key and look up others by
// fingerprint. Every request is signed by the caller's key and every reply
// is signed by the server, both through rpcauth interceptors. The server only
// accepts a contact from the holder of its key.
//
// The service is described by hand on protobuf well-known wrapper types:
//
//	yacen.directory.v1.Directory/Publish(BytesValue{contact JSON}) -> Empty
//	yacen.directory.v1.Directory/Lookup(StringValue{fingerprint})  -> BytesValue{contact JSON}
package directory
