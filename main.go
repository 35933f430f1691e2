package main

import "github.com/ByLCY/pnpstitch/cmd"

func main() {
	cmd.Execute()
}
