package main

import "github.com/oshokin/rostoc-updates/cmd/rostoc-artifact-name/cmd"

func main() {
	cmd.Execute()
}
