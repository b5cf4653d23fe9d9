package main

import (
	"os"

	"github.com/golang/glog"

	"github.com/rockstardevs/bpfix/internal/commands"
)

func main() {
	err := commands.NewRootCommand().Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
