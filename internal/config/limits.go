package config

const (
	// HistoryCapacity is the fixed size of the in-memory conversion history.
	// Oldest entries are evicted first once the ring is full.
	HistoryCapacity = 100

	// DownloadIDBytes is the number of random bytes behind a download id.
	// Hex-encoded this yields a fixed 16-character identifier; the id is the
	// sole access-control mechanism for downloads, so it must come from a
	// cryptographic source.
	DownloadIDBytes = 8

	// MultipartMemoryBudget caps how much of a multipart request is held in
	// memory before spilling to temporary files (32 MB, the net/http default).
	MultipartMemoryBudget = 32 << 20
)
