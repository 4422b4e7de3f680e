package extractors

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// AliasExtractor читает источники алиасов (файлы иерархий и перекрестных
// ссылок) в последовательности строк для построителя таблиц
type AliasExtractor struct {
	logger *utils.ETLLogger
}

// NewAliasExtractor создает новый экземпляр AliasExtractor
func NewAliasExtractor(logger *utils.ETLLogger) *AliasExtractor {
	return &AliasExtractor{logger: logger}
}

// ExtractFile читает источник алиасов из файла.
// keyIndex и valueIndex — индексы полей ключа и значения в строке.
func (e *AliasExtractor) ExtractFile(path, name string, keyIndex, valueIndex int) (models.AliasSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.AliasSource{}, fmt.Errorf("ошибка при открытии источника алиасов %s: %w", name, err)
	}
	defer file.Close()

	lines, err := readLines(file)
	if err != nil {
		return models.AliasSource{}, fmt.Errorf("ошибка при чтении источника алиасов %s: %w", name, err)
	}

	e.logger.Debug("Источник алиасов %s: прочитано %d строк", name, len(lines))

	return models.AliasSource{
		Name:       name,
		Lines:      lines,
		KeyIndex:   keyIndex,
		ValueIndex: valueIndex,
	}, nil
}

// readLines читает все строки источника
func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
