// Command faqctl manages FAQ entries and admin tokens against the configured storage.
//
// Usage:
//
//	faqctl [flags] <command> [args]
//
// Commands:
//
//	ask      - Answer a message the way the HTTP API does
//	add      - Add a question/answer pair
//	update   - Replace the answer of an existing question
//	remove   - Remove a question
//	list     - Print every entry
//	suggest  - Autocomplete stored questions
//	import   - Add every entry of a JSON file
//	token    - Issue an admin token for the HTTP API
package main

import (
	"fmt"
	"os"

	"github.com/yanqian/semantic-faq/cmd/faqctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
