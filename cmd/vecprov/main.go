// Command vecprov provisions the vector store collections a platform needs.
// It waits for the store, creates whatever is missing from the catalog, and
// prints an inventory of everything the store holds.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
