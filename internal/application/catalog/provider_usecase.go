package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/codegen"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

// ProviderUseCase alta y edición de proveedores con asignación de código visual sin huecos.
type ProviderUseCase struct {
	txRunner  ports.TxRunner
	providers repository.ProviderRepository
	log       zerolog.Logger
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(txRunner ports.TxRunner, providers repository.ProviderRepository, log zerolog.Logger) *ProviderUseCase {
	return &ProviderUseCase{txRunner: txRunner, providers: providers, log: log}
}

// Create crea el proveedor asignando el siguiente consecutivo de su letra.
// La letra queda bloqueada durante la transacción para que dos altas no lean el mismo máximo.
func (uc *ProviderUseCase) Create(ctx context.Context, in dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.EANGlobalID < 0 || in.EANGlobalID > codegen.MaxEANGlobalID {
		return nil, fmt.Errorf("%w: ean_global_id debe estar entre 0 y %d", domain.ErrInvalidInput, codegen.MaxEANGlobalID)
	}
	letter, err := codegen.NormalizeLetter(in.Letter)
	if err != nil {
		return nil, err
	}

	var provider *entity.Provider
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		code, seq, err := nextVisualCode(ctx, r, letter)
		if err != nil {
			return err
		}
		now := time.Now()
		provider = &entity.Provider{
			ID:             uuid.New().String(),
			Name:           name,
			VisualCode:     code,
			LetterPrefix:   letter,
			LetterSequence: seq,
			EANGlobalID:    in.EANGlobalID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return r.Providers.Create(ctx, provider)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("provider_id", provider.ID).
		Str("visual_code", provider.VisualCode).
		Msg("proveedor creado")
	return toProviderResponse(provider), nil
}

// Update edita el proveedor. Si la letra no cambia se reutilizan código visual y consecutivo
// tal cual; recalcularlos dejaría un hueco en la secuencia de la letra.
func (uc *ProviderUseCase) Update(ctx context.Context, id string, in dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	var provider *entity.Provider
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		p, err := r.Providers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
			}
			p.Name = name
		}
		if in.EANGlobalID != nil {
			if *in.EANGlobalID < 0 || *in.EANGlobalID > codegen.MaxEANGlobalID {
				return fmt.Errorf("%w: ean_global_id debe estar entre 0 y %d", domain.ErrInvalidInput, codegen.MaxEANGlobalID)
			}
			p.EANGlobalID = *in.EANGlobalID
		}
		if in.Letter != nil {
			letter, err := codegen.NormalizeLetter(*in.Letter)
			if err != nil {
				return err
			}
			if letter != p.LetterPrefix {
				code, seq, err := nextVisualCode(ctx, r, letter)
				if err != nil {
					return err
				}
				p.LetterPrefix = letter
				p.LetterSequence = seq
				p.VisualCode = code
			}
		}
		p.UpdatedAt = time.Now()
		provider = p
		return r.Providers.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return toProviderResponse(provider), nil
}

// GetByID obtiene un proveedor por ID; nil si no existe.
func (uc *ProviderUseCase) GetByID(ctx context.Context, id string) (*dto.ProviderResponse, error) {
	provider, err := uc.providers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return toProviderResponse(provider), nil
}

// PreviewCodes muestra el SKU y EAN-13 que recibiría el próximo producto, sin avanzar el consecutivo.
func (uc *ProviderUseCase) PreviewCodes(ctx context.Context, id string) (*dto.NextCodesResponse, error) {
	provider, err := uc.providers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, domain.ErrNotFound
	}
	sku, seq := codegen.NextSKU(provider.VisualCode, provider.LastSKUSequence)
	out := &dto.NextCodesResponse{ProviderID: provider.ID, Sequence: seq, SKU: sku}
	if barcode, err := codegen.NextEAN13(provider.EANGlobalID, seq); err == nil {
		out.Barcode = barcode
	}
	return out, nil
}

func nextVisualCode(ctx context.Context, r ports.Repos, letter string) (string, int, error) {
	if err := r.Providers.LockLetter(ctx, letter); err != nil {
		return "", 0, err
	}
	maxSeq, err := r.Providers.MaxLetterSequence(ctx, letter)
	if err != nil {
		return "", 0, err
	}
	return codegen.NextVisualCode(letter, maxSeq)
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:              p.ID,
		Name:            p.Name,
		VisualCode:      p.VisualCode,
		LetterPrefix:    p.LetterPrefix,
		LetterSequence:  p.LetterSequence,
		EANGlobalID:     p.EANGlobalID,
		LastSKUSequence: p.LastSKUSequence,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
