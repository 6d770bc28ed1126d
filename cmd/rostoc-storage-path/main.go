package main

import "github.com/oshokin/rostoc-updates/cmd/rostoc-storage-path/cmd"

func main() {
	cmd.Execute()
}
