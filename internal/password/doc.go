// Package password provides password peppering and Argon2id hashing.
//
// Peppering appends a server-side secret to the plaintext before hashing.
// Two conventions exist in stored credentials and both stay verifiable:
//
//	StyleColon   password + ":" + pepper   (all new credentials)
//	StyleDirect  password + pepper         (older credentials only)
//
// Hashes use the PHC string format produced by PHP's password_hash and
// argon2-cffi, so credentials written by either remain interchangeable:
//
//	$argon2id$v=19$m=<KiB>,t=<iterations>,p=<parallelism>$<salt>$<hash>
//
// Hash strings are treated as untrusted input during Verify.
package password
