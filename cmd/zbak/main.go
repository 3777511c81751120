// Copyright © 2019 One Concern

package main

import (
	"github.com/oneconcern/zbak/cmd/zbak/cmd"
)

func main() {
	cmd.Execute()
}
