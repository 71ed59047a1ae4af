package main

import "github.com/shouni/go-reg-harvest/cmd"

func main() {
	cmd.Execute()
}
