package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/mbtiles"
	"github.com/brendan-ward/geotiler/pmtiles"
	"github.com/brendan-ward/geotiler/tiles"
)

// archive is a tile archive open for writing
type archive interface {
	WriteTile(tile *tiles.TileID, data []byte) error
	Close() error
}

type archiveMetadata struct {
	Name        string
	Description string
	MinZoom     uint8
	MaxZoom     uint8
	// longitude, latitude
	Bounds affine.Bounds
}

// createArchive creates an mbtiles or pmtiles archive based on the
// extension of path, and writes its metadata
func createArchive(path string, workers int, metadata archiveMetadata) (archive, error) {
	switch filepath.Ext(path) {
	case ".mbtiles":
		db, err := mbtiles.NewMBtilesWriter(path, workers)
		if err != nil {
			return nil, err
		}
		err = db.WriteMetadata(mbtiles.Metadata{
			Name:        metadata.Name,
			Description: metadata.Description,
			MinZoom:     metadata.MinZoom,
			MaxZoom:     metadata.MaxZoom,
			Bounds:      metadata.Bounds,
		})
		if err != nil {
			db.Close()
			return nil, err
		}
		return db, nil

	case ".pmtiles":
		w, err := pmtiles.NewPMTilesWriter(path)
		if err != nil {
			return nil, err
		}
		err = w.WriteMetadata(pmtiles.Metadata{
			Name:        metadata.Name,
			Description: metadata.Description,
			MinZoom:     metadata.MinZoom,
			MaxZoom:     metadata.MaxZoom,
			Bounds:      metadata.Bounds,
		})
		if err != nil {
			w.Close()
			return nil, err
		}
		return w, nil

	default:
		return nil, fmt.Errorf("output filename must end in .mbtiles or .pmtiles")
	}
}
