package main

import "github.com/Thiagomartinsvieira/document-management-employees/cmd"

func main() {
	cmd.Execute()
}
