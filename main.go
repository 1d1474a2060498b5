package main

import "github.com/arjun-kestrel/pydep/cmd"

func main() {
	cmd.Execute()
}
