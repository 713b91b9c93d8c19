// import_providers da de alta proveedores en lote desde una hoja de cálculo.
//
// Uso: go run ./cmd/import_providers -file proveedores.csv [-latin1] [-dry-run]
//
// Columnas: name, letter, ean_global_id (la primera fila puede ser encabezado).
// Acepta .csv (UTF-8 o ISO-8859-1 con -latin1) y .xlsx (primera hoja).
// Cada proveedor recibe el siguiente código visual de su letra, igual que POST /api/providers.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-sucursales/internal/application/catalog"
	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-sucursales/pkg/config"
	"github.com/jhoicas/Inventario-sucursales/pkg/logger"
)

func main() {
	file := flag.String("file", "", "ruta del .csv o .xlsx")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	dryRun := flag.Bool("dry-run", false, "solo valida el archivo")
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "uso: import_providers -file proveedores.csv [-latin1] [-dry-run]")
		os.Exit(2)
	}

	rows, err := readRows(*file, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer archivo: %v\n", err)
		os.Exit(1)
	}
	reqs, errs := parseRows(rows)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
	if len(errs) > 0 {
		os.Exit(1)
	}
	if *dryRun {
		fmt.Printf("%d proveedores válidos\n", len(reqs))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "import_providers"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := catalog.NewProviderUseCase(postgres.NewTxRunner(pool), postgres.NewProviderRepository(pool), log.Component("providers"))
	created := 0
	for i, req := range reqs {
		p, err := uc.Create(ctx, req)
		if err != nil {
			log.Error().Err(err).Int("fila", i+1).Str("name", req.Name).Msg("proveedor no creado")
			continue
		}
		created++
		fmt.Printf("%s\t%s\n", p.VisualCode, p.Name)
	}
	fmt.Printf("Creados %d de %d proveedores\n", created, len(reqs))
}

// readRows lee todas las filas del archivo según su extensión.
func readRows(path string, latin1 bool) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("el libro no tiene hojas")
		}
		return f.GetRows(sheets[0])
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readCSV(f, latin1)
	}
}

func readCSV(r io.Reader, latin1 bool) ([][]string, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// parseRows convierte filas en solicitudes; omite el encabezado y las filas vacías.
// Los errores llevan el número de fila (1-based) del archivo.
func parseRows(rows [][]string) ([]dto.CreateProviderRequest, []error) {
	var (
		out  []dto.CreateProviderRequest
		errs []error
	)
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) < 3 {
			errs = append(errs, fmt.Errorf("fila %d: se esperaban 3 columnas (name, letter, ean_global_id)", i+1))
			continue
		}
		ean, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			errs = append(errs, fmt.Errorf("fila %d: ean_global_id %q no es numérico", i+1, row[2]))
			continue
		}
		out = append(out, dto.CreateProviderRequest{
			Name:        strings.TrimSpace(row[0]),
			Letter:      strings.TrimSpace(row[1]),
			EANGlobalID: ean,
		})
	}
	return out, errs
}

func isHeader(row []string) bool {
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "name" || first == "nombre"
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
