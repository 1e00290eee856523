package main

import (
	"fmt"
	"os"

	"go-ots/internal/otstimestamp"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: ots_info <path>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()

	dtf, err := otstimestamp.Parse(f)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Print(dtf.String())
}
