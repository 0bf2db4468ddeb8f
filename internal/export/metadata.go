package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// describeFile fills the size and checksum of the written workbook.
func describeFile(result *Result) error {
	info, err := os.Stat(result.Path)
	if err != nil {
		return fmt.Errorf("failed to read workbook metadata: %w", err)
	}

	checksum, err := fileChecksum(result.Path)
	if err != nil {
		return err
	}

	result.Size = info.Size()
	result.Checksum = checksum
	return nil
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
