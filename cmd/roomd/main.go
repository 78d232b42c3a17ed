// Package main implements the roomd CLI.
package main

func main() {
	Execute()
}
