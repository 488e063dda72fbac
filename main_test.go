package main_test

import (
	"flag"
	"fmt"
	"os/exec"
	"testing"
)

var e2e = flag.Bool("e2e", false, "test with real device and running adb server")

func TestDeviceList(t *testing.T) {
	if !*e2e {
		return
	}
	output, err := exec.Command("go", "run", ".", "devices").Output()
	if err != nil {
		fmt.Println(err.Error())
	}
	fmt.Println(string(output))
}
