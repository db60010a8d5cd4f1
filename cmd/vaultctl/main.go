package main

import "passvault/cmd/vaultctl/cmd"

func main() {
	cmd.Execute()
}
