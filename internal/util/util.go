package util // import "github.com/Takashicc/repub/internal/util"

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const epubExt = ".epub"

func GenUUID() string {
	return uuid.New().String()
}

// ListEpubFiles resolves an input path into the books to process. A file is
// returned as is; a directory is read one level deep for regular files with
// an .epub extension in any case, in name order.
func ListEpubFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to access %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read directory %s", path)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), epubExt) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	return files, nil
}

// GenerateNewFileName returns filePath if nothing exists there, otherwise
// the first free name of the form name_N.ext.
func GenerateNewFileName(filePath string) string {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return filePath // file does not exist, return the same name
	}

	dir := filepath.Dir(filePath)
	ext := filepath.Ext(filePath)
	fileName := strings.TrimSuffix(filepath.Base(filePath), ext)

	for index := 1; ; index++ {
		newFilePath := filepath.Join(dir, fmt.Sprintf("%s_%d%s", fileName, index, ext))
		if _, err := os.Stat(newFilePath); os.IsNotExist(err) {
			return newFilePath
		}
	}
}
