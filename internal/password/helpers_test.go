package password

// cheap keeps the suite fast; production costs take ~100ms per call.
func cheap() Params {
	return Params{MemoryKiB: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}
