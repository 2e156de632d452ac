// Package main is the entry point for ntfy-publisher.
package main

import "github.com/sharkusmanch/ntfy-publisher/internal/cli"

func main() {
	cli.Execute()
}
