// Package commands defines the yacen CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init           Create the local profile and signing key
//   - fingerprint    Print the profile fingerprint and public key
//   - backup         Print the recovery phrase for the profile key
//   - restore        Recreate the profile from a recovery phrase
//   - encrypt        Encrypt a file under the passphrase
//   - decrypt        Decrypt a file produced by encrypt
//   - sign           Write a detached signature with the profile key
//   - verify         Check a detached signature
//   - seal           Encrypt to a sealing key (seal keygen creates one)
//   - open           Decrypt a sealed file
//   - publish        Publish your contact to the directory
//   - lookup         Fetch a contact by fingerprint, optionally trusting it
//
// # Implementation
//
// The root command loads config.yaml from the home directory, applies flag
// overrides, and builds the app (logger, profile store, identity service)
// before any subcommand runs. Directory commands dial a fresh signed gRPC
// connection per invocation.
package commands
