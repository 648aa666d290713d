package main

import "github.com/tesso57/commit-pet/cmd/commit-pet/root"

func main() {
	root.Execute()
}
