/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "orlem/cmd"

func main() {
	cmd.Execute()
}
