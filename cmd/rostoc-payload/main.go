package main

import "github.com/oshokin/rostoc-updates/cmd/rostoc-payload/cmd"

func main() {
	cmd.Execute()
}
