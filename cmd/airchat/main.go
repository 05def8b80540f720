// Command airchat is a terminal and browser client for the airline
// question-answering service.
package main

import "github.com/diogo/airchat/internal/commands"

func main() {
	commands.Execute()
}
