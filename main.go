package main

import (
	"os"

	"github.com/askdocs/knowledgebase/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
