// SnifLog - Serial Capture Log Reassembler
//
// SnifLog reads the capture logs written by the jpnevulator serial sniffer,
// joins each message's hex dump lines back into one payload, and prints the
// conversation with the time between messages.
package main

import (
	"os"

	"github.com/ccollicutt/sniflog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
