package main

import "github.com/care-services/api-bi/cmd"

func main() {
	cmd.Execute()
}
