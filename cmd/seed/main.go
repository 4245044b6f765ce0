package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/servibook/servibook-backend/config"
	"github.com/servibook/servibook-backend/internal/app/model"
	"github.com/servibook/servibook-backend/internal/app/repository"
	"github.com/servibook/servibook-backend/internal/db"
	"github.com/servibook/servibook-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Contraseña inicial de las cuentas importadas. Los dueños deben cambiarla
// en su primer acceso.
const defaultImportPassword = "cambiame123"

type importRow struct {
	OwnerEmail   string
	OwnerName    string
	Phone        string
	BusinessName string
	Description  string
	Address      string
	LogoURL      string
	Categories   []string
}

func main() {
	// Verificar argumentos
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Conectar a la base de datos
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	// Leer el archivo XLSX
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readRowsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total businesses to import: %d\n", len(rows))

	// Confirmación del usuario
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	skipped := 0
	for _, row := range rows {
		if err := importBusiness(userRepo, businessRepo, categoryRepo, row); err != nil {
			fmt.Printf("  Skipping %q (%s): %v\n", row.BusinessName, row.OwnerEmail, err)
			skipped++
			continue
		}
		imported++

		if imported%100 == 0 {
			fmt.Printf("Imported %d businesses...\n", imported)
		}
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Imported: %d\n", imported)
	fmt.Printf("  Skipped:  %d\n", skipped)
}

// importBusiness crea la cuenta del dueño (si no existe) y su negocio en
// estado borrador. El negocio queda oculto hasta que el dueño cargue su
// horario y lo publique.
func importBusiness(
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	categoryRepo repository.CategoryRepository,
	row importRow,
) error {
	owner, err := userRepo.FindByEmail(row.OwnerEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up owner: %w", err)
		}

		hash, err := util.HashPassword(defaultImportPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		owner = &model.User{
			Email:        row.OwnerEmail,
			PasswordHash: hash,
			FullName:     row.OwnerName,
			PhoneNumber:  row.Phone,
			Role:         model.RoleOwner,
		}
		if err := userRepo.Create(owner); err != nil {
			return fmt.Errorf("failed to create owner account: %w", err)
		}
	}

	// Un negocio por dueño
	if _, err := businessRepo.FindByOwnerID(owner.ID); err == nil {
		return fmt.Errorf("owner already has a business")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up business: %w", err)
	}

	business := &model.Business{
		OwnerID:     owner.ID,
		Name:        row.BusinessName,
		Description: row.Description,
		Address:     row.Address,
		LogoURL:     row.LogoURL,
		Status:      model.BusinessStatusDraft,
	}
	if err := businessRepo.Create(business); err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	// Asociar categorías existentes; las desconocidas se ignoran
	var categories []model.Category
	for _, name := range row.Categories {
		category, err := categoryRepo.FindByName(name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fmt.Printf("  Unknown category %q for %q, ignoring\n", name, row.BusinessName)
				continue
			}
			return fmt.Errorf("failed to look up category: %w", err)
		}
		categories = append(categories, *category)
	}
	if len(categories) > 0 {
		if err := businessRepo.ReplaceCategories(business, categories); err != nil {
			return fmt.Errorf("failed to assign categories: %w", err)
		}
	}

	return nil
}

// Columnas esperadas en la primera hoja:
//
//	0: correo del dueño
//	1: nombre del dueño
//	2: teléfono
//	3: nombre del negocio
//	4: descripción
//	5: dirección
//	6: URL del logo
//	7: categorías separadas por coma
func readRowsFromXLSX(filePath string) ([]importRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var result []importRow
	seenEmails := make(map[string]bool) // evita duplicados dentro del archivo
	skippedCount := 0

	// La primera fila es el encabezado
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 6 {
			skippedCount++
			continue
		}

		email := strings.ToLower(strings.TrimSpace(row[0]))
		ownerName := strings.TrimSpace(row[1])
		phone := strings.TrimSpace(row[2])
		businessName := strings.TrimSpace(row[3])
		description := strings.TrimSpace(row[4])
		address := strings.TrimSpace(row[5])

		logoURL := ""
		if len(row) > 6 {
			logoURL = strings.TrimSpace(row[6])
		}
		var categories []string
		if len(row) > 7 {
			for _, name := range strings.Split(row[7], ",") {
				if name = strings.TrimSpace(name); name != "" {
					categories = append(categories, name)
				}
			}
		}

		// Campos obligatorios
		if email == "" || businessName == "" || address == "" {
			skippedCount++
			continue
		}

		if !isValidEmail(email) || !isValidBusinessName(businessName) {
			skippedCount++
			continue
		}

		if seenEmails[email] {
			skippedCount++
			continue
		}
		seenEmails[email] = true

		result = append(result, importRow{
			OwnerEmail:   email,
			OwnerName:    ownerName,
			Phone:        phone,
			BusinessName: businessName,
			Description:  description,
			Address:      address,
			LogoURL:      logoURL,
			Categories:   categories,
		})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid rows: %d\n", len(result))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return result, nil
}

var emailReg = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isValidEmail(email string) bool {
	return emailReg.MatchString(email)
}

// isValidBusinessName descarta nombres demasiado cortos o sin letras
func isValidBusinessName(name string) bool {
	nameRunes := []rune(name)
	if len(nameRunes) < 3 {
		return false
	}

	letterReg := regexp.MustCompile(`\p{L}`)
	return letterReg.MatchString(name)
}
