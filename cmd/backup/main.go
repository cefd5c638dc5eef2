package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"study-hand/config"
	"study-hand/storage"
)

// exportTables sind die Registry-Tabellen, die in den Export aufgenommen
// werden. Die Reihenfolge folgt den FK-Abhängigkeiten, damit ein Re-Import
// ohne Verletzungen möglich ist.
var exportTables = []string{
	"users",
	"runs",
	"sources",
	"features",
	"collections",
	"artifacts",
	"tissues",
	"cell_types",
	"diseases",
	"ethnicities",
	"references",
	"clinical_trials",
	"patients",
	"biosamples",
	"medications",
	"treatments",
	"artifact_references",
	"artifact_clinical_trials",
	"artifact_biosamples",
	"artifact_patients",
	"artifact_medications",
	"artifact_treatments",
}

func main() {
	log.Println("Starte Registry-Export...")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Fehler beim Verbinden mit der Datenbank: %v", err)
	}

	// 1. Tabellen als gzipptes JSONL-Archiv dumpen
	dumpData, err := createDump(gdb)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des Dumps: %v", err)
	}

	// 2. Export hochladen
	client, err := storage.NewExportClient(cfg)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des S3-Clients: %v", err)
	}
	fileName := fmt.Sprintf("registry-export-%s.tar.gz", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	link, err := client.Upload(ctx, fileName, dumpData)
	if err != nil {
		log.Fatalf("Fehler beim Hochladen nach S3: %v", err)
	}
	log.Printf("Export erfolgreich hochgeladen: %s", link)

	// 3. Alte Exporte rotieren
	deleted, err := client.Prune(ctx, cfg.KeepExports)
	if err != nil {
		log.Fatalf("Fehler bei der Rotation alter Exporte: %v", err)
	}
	for _, key := range deleted {
		log.Printf("Alter Export gelöscht: %s", key)
	}

	log.Println("Registry-Export erfolgreich abgeschlossen.")
}

// createDump schreibt jede Tabelle als JSONL-Datei in ein tar.gz-Archiv.
func createDump(gdb *gorm.DB) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, table := range exportTables {
		var rows []map[string]interface{}
		if err := gdb.Table(table).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("dump of table %s failed: %w", table, err)
		}

		var body bytes.Buffer
		enc := json.NewEncoder(&body)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return nil, err
			}
		}

		hdr := &tar.Header{
			Name:    table + ".jsonl",
			Mode:    0o644,
			Size:    int64(body.Len()),
			ModTime: time.Now().UTC(),
		}
		if err := tarWriter.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := tarWriter.Write(body.Bytes()); err != nil {
			return nil, err
		}
		log.Printf("Tabelle %s exportiert (%d Zeilen)", table, len(rows))
	}

	if err := tarWriter.Close(); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
