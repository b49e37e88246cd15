package main

import "github.com/lukman83/catalog-scrap/cmd"

func main() {
	cmd.Execute()
}
