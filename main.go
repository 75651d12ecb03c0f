package main

import "github.com/adify/rewards/cmd"

func main() {
	cmd.Execute()
}
