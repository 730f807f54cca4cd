//go:build mage

// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binaryName = "fwquant"

var ldflags = "-X github.com/finwell/fw-quant/common.commitHash=$COMMIT_HASH " +
	"-X github.com/finwell/fw-quant/common.buildDate=$BUILD_DATE"

// allow user to override go executable by running as GOEXE=xxx mage ...
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

func flagEnv() map[string]string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().Format("2006-01-02T15:04:05Z0700"),
	}
}

// Build the fwquant binary
func Build() error {
	fmt.Println("Building...")
	return sh.RunWith(flagEnv(), goexe, "build", "-o", binaryName, "-ldflags", ldflags, "-v", ".")
}

// Install the fwquant binary into GOPATH/bin
func Install() error {
	return sh.RunWith(flagEnv(), goexe, "install", "-ldflags", ldflags, ".")
}

// Clean up build artifacts
func Clean() {
	fmt.Println("Cleaning...")
	os.RemoveAll(binaryName)
	os.RemoveAll("coverage.out")
}

// Run tests and linters
func Check() {
	mg.Deps(Vet)
	mg.Deps(TestRace)
}

// Run tests
func Test() error {
	fmt.Println("Go Test")
	return sh.Run(goexe, "test", "./...")
}

// Run tests with race detector
func TestRace() error {
	fmt.Println("Go Test Race")
	return sh.Run(goexe, "test", "-race", "./...")
}

// Run go vet
func Vet() error {
	fmt.Println("Go Vet")
	if err := sh.Run(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %v", err)
	}
	return nil
}

// Generate a test coverage report
func TestCoverHTML() error {
	fmt.Println("Generate Test Coverage HTML")
	if err := sh.Run(goexe, "test", "-coverprofile=coverage.out", "-covermode=count", "./..."); err != nil {
		return err
	}
	return sh.Run(goexe, "tool", "cover", "-html=coverage.out")
}
