// Command adnify is the CLI entry point over internal/cli.
package main

import "github.com/adnify/retrieval/internal/cli"

func main() {
	cli.Execute()
}
