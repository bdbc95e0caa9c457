package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const stdinName = "<stdin>"

// readInput reads a file, or stdin when name is empty or "-"
func readInput(stdin io.Reader, name string) (string, []byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return stdinName, nil, fmt.Errorf("failed to read input: %w", err)
		}

		return stdinName, data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return name, nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return name, data, nil
}

// collectFiles expands directories into the .json files below them
func collectFiles(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return []string{""}, nil
	}

	var files []string

	for _, input := range inputs {
		if input == "-" {
			files = append(files, input)
			continue
		}

		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input: %w", err)
		}

		if !info.IsDir() {
			files = append(files, input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && isJSONFile(path) {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", input, err)
		}
	}

	return files, nil
}

func isJSONFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// writeOutput replaces a file through a temporary file in the same directory
func writeOutput(filename string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(filename), ".catajson-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	_, err = tempFile.Write(data)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if err := os.Rename(tempFile.Name(), filename); err != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}

	return nil
}
