package main

import "github.com/Cortexa-LLC/mcp/src/docxhtml/cmd"

func main() {
	cmd.Execute()
}
