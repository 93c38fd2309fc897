package main

import (
	"github.com/salehq/activityboard/cmd"
)

func main() {
	cmd.Execute()
}
