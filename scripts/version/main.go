// Package main prints the version of the checkout, as stamped into builds.
package main

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

func main() {
	// Release tags are bare versions such as 4.4.957.
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty", "--match", "[0-9]*")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		fmt.Print("dev")
		return
	}
	fmt.Print(strings.TrimSpace(out.String()))
}
