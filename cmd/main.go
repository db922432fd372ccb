// cmd/main.go is the application entry point.
package main

func main() {
	Execute()
}
