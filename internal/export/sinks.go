package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/quantumtrio/kptsignal/internal/cloudwriter"
	"github.com/quantumtrio/kptsignal/internal/models"
)

// Destination receives one JSON-encoded row at a time for a topic and
// flushes everything on Close.
type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// NewDestination picks the sink for the configured output format, in
// priority order: Kafka when enabled, then the file formats under
// output_path, console otherwise.
func NewDestination(cfg *models.Config) (Destination, error) {
	if cfg.KafkaEnabled {
		return NewKafkaOutput(cfg)
	}
	if cfg.OutputPath != "" {
		switch cfg.OutputFormat {
		case "parquet":
			return NewParquetOutput(cfg)
		case "json":
			return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
		case "csv":
			return NewCSVOutput(cfg.OutputPath, cfg.OutputFolder), nil
		default:
			return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
		}
	}
	return &ConsoleOutput{}, nil
}

type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	file, ok := j.files[topic]
	if !ok {
		fullPath := filepath.Join(j.basePath, j.folder, topic)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		var err error
		file, err = os.Create(filepath.Join(fullPath, "data.json"))
		if err != nil {
			return err
		}
		j.files[topic] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err := file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

type CSVOutput struct {
	basePath string
	folder   string
	files    map[string]*csv.Writer
	headers  map[string][]string
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	var row map[string]interface{}
	if err := json.Unmarshal(msg, &row); err != nil {
		return err
	}

	csvWriter, ok := c.files[topic]
	if !ok {
		fullPath := filepath.Join(c.basePath, c.folder, topic)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "data.csv"))
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		c.files[topic] = csvWriter

		headers := c.getHeaders(row)
		if err := csvWriter.Write(headers); err != nil {
			return err
		}
		c.headers[topic] = headers
	}

	out := make([]string, len(c.headers[topic]))
	for i, header := range c.headers[topic] {
		value, ok := row[header]
		if !ok {
			out[i] = ""
		} else {
			out[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := csvWriter.Write(out); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (c *CSVOutput) getHeaders(row map[string]interface{}) []string {
	var headers []string
	for key := range row {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func (c *CSVOutput) Close() error {
	for _, csvWriter := range c.files {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return err
		}
	}
	return nil
}

type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(cfg *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: cfg.OutputPath,
		folder:   cfg.OutputFolder,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}

	if cfg.OutputDestination != "local" {
		switch cfg.CloudStorage.Provider {
		case "s3":
			factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
			if err != nil {
				return nil, eris.Wrap(err, "create cloud writer factory")
			}
			p.cloudWriterFactory = factory
			p.cloudBucketName = cfg.CloudStorage.BucketName
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
	}

	return p, nil
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	p.mu.Lock()
	pw, ok := p.writers[topic]
	if !ok {
		var err error
		pw, err = p.createNewWriter(topic)
		if err != nil {
			p.mu.Unlock()
			return eris.Wrap(err, "create parquet writer")
		}
	}
	p.mu.Unlock()

	rec, err := SchemaFor(topic)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(msg, rec); err != nil {
		return err
	}
	if err := pw.Write(rec); err != nil {
		return eris.Wrapf(err, "write parquet row for %s", topic)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(topic string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	var err error
	if p.cloudWriterFactory != nil {
		objectPath := filepath.Join(p.folder, topic, "data.parquet")
		cw, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, eris.Wrap(err, "create cloud file writer")
		}
		fw = NewCloudParquetFile(cw)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, "data.parquet"))
		if err != nil {
			return nil, eris.Wrap(err, "create local file writer")
		}
	}

	schemaObj, err := SchemaFor(topic)
	if err != nil {
		return nil, err
	}
	pw, err := writer.NewParquetWriter(fw, schemaObj, 4)
	if err != nil {
		return nil, eris.Wrap(err, "create ParquetWriter")
	}

	p.writers[topic] = pw
	p.files[topic] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for topic, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = eris.Wrapf(err, "close writer for %s", topic)
		}
		if f, ok := p.files[topic]; ok {
			if err := f.Close(); err != nil {
				lastErr = eris.Wrapf(err, "close file for %s", topic)
			}
		}
	}
	return lastErr
}

type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	output := fmt.Sprintf("[%s] %s\n", topic, string(msg))
	if _, err := os.Stdout.Write([]byte(output)); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	_ = os.Stdout.Sync()
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}
