// Command docsgen builds the documentation index snapshot the server loads
// read-only at startup. The index is rebuilt wholesale: the previous
// snapshot is overwritten, never patched.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"cadchat/internal/docs"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <snapshot-file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s data/api_docs.json\n", os.Args[0])
		os.Exit(1)
	}

	snapshotPath := os.Args[1]

	ix := docs.Builtin()
	ix.GeneratedAt = time.Now().UTC()

	if err := ix.Write(snapshotPath); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}

	topics, errorCodes, patterns := ix.Counts()
	log.Printf("Wrote %s", snapshotPath)
	log.Printf("  %d topics, %d error codes, %d patterns", topics, errorCodes, patterns)
	log.Printf("  generated at %s", ix.GeneratedAt.Format(time.RFC3339))
}
