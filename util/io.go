package util

import (
	"encoding/json"
	"errors"
	"os"
)

func WriteJSONToFile[T any](value T, file string) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		panic("failed to marshal " + file + ": " + err.Error())
	}

	outfile, err := os.Create(file)
	if err != nil {
		panic("failed to create file: " + file)
	}
	defer outfile.Close()
	outfile.Write(data)
}

func ReadJSONFromFile[T any](file string) T {
	_, err := os.Stat(file)
	if errors.Is(err, os.ErrNotExist) {
		panic("file not found: " + file)
	}

	data, _ := os.ReadFile(file)

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		panic("failed to parse " + file + ": " + err.Error())
	}

	return value
}
