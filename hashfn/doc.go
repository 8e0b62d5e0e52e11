// Package hashfn provides the two stable, non-cryptographic hash functions
// the rest of the system places on the consistent-hash ring: one for
// document names, one for server ids. Both must be byte-exact across hosts
// and test runs, since ring placement — and therefore which server owns a
// document — is derived directly from their output.
package hashfn
