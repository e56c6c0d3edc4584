package artifacts

const (
	verificationABI = `[{"inputs":[],"stateMutability":"nonpayable","type":"constructor"},{"inputs":[{"internalType":"address","name":"brand","type":"address"}],"name":"isVerified","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"}]`
	seriesABI       = `[{"inputs":[{"internalType":"address","name":"verificationContract","type":"address"}],"stateMutability":"nonpayable","type":"constructor"}]`
	interfaceABI    = `[{"inputs":[{"internalType":"address","name":"brand","type":"address"}],"name":"isVerified","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"}]`
	// Copies a single STOP byte as runtime code.
	minimalBytecode = "0x6001600c60003960016000f300"
)
