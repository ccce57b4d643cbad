// Package cryptox seals short secrets (password hashes) for storage with
// AES-256-GCM and opens them again.
//
// The persisted form is
//
//	<keyId>:<base64(nonce ‖ tag ‖ ciphertext)>
//
// with a 12-byte nonce and a 16-byte tag. Two older forms are accepted on
// read only:
//
//	plain:<base64(plaintext)>   unencrypted development fallback
//	<base64(nonce ‖ tag ‖ ciphertext)>   no key id, sealed under the current key
//
// The key id is advisory. It is compared against the configured one and a
// difference is reported, but only the GCM tag decides authenticity.
package cryptox
