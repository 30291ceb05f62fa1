package bas2c

// Version is the bas2c release version reported by the CLI.
const Version = "1.1.0"
