package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/tributo"
)

// DebtUseCase calcula deudas vigentes sobre el motor tributario. No
// persiste nada: la deuda se deriva del padrón, el libro de transacciones
// y las tarifas en cada consulta.
type DebtUseCase struct {
	taxpayers repository.TaxpayerRepository
	txs       repository.TransactionRepository
	config    repository.TaxConfigRepository
}

func NewDebtUseCase(
	taxpayers repository.TaxpayerRepository,
	txs repository.TransactionRepository,
	config repository.TaxConfigRepository,
) *DebtUseCase {
	return &DebtUseCase{taxpayers: taxpayers, txs: txs, config: config}
}

// DebtsFor deriva las obligaciones vigentes de un contribuyente a la fecha.
func (uc *DebtUseCase) DebtsFor(taxpayerID string) (*dto.DebtSummaryResponse, error) {
	return uc.debtsAt(taxpayerID, time.Now())
}

func (uc *DebtUseCase) debtsAt(taxpayerID string, ref time.Time) (*dto.DebtSummaryResponse, error) {
	tp, err := uc.taxpayers.GetByID(taxpayerID)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return nil, domain.ErrTaxpayerNotFound
	}
	rates, err := uc.rates()
	if err != nil {
		return nil, err
	}
	ledger, err := uc.txs.ListByTaxpayer(tp.ID)
	if err != nil {
		return nil, err
	}
	items := tributo.ComputeDebts(tp, ledger, rates, ref)
	return &dto.DebtSummaryResponse{
		TaxpayerID:   tp.ID,
		TaxpayerName: tp.Name,
		Items:        dto.FromDebtItems(items),
		Total:        tributo.TotalDebt(items),
		Delinquent:   tributo.IsDelinquent(items),
	}, nil
}

// Morosidad recorre el padrón completo y agrega los morosos para el
// tablero administrativo.
func (uc *DebtUseCase) Morosidad() (*dto.MorosidadResponse, error) {
	rates, err := uc.rates()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := &dto.MorosidadResponse{
		TotalOutstanding: decimal.Zero,
		ByTaxType:        map[string]decimal.Decimal{},
	}
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		page, err := uc.taxpayers.List(pageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, tp := range page {
			out.TaxpayersChecked++
			ledger, err := uc.txs.ListByTaxpayer(tp.ID)
			if err != nil {
				return nil, err
			}
			items := tributo.ComputeDebts(tp, ledger, rates, now)
			if len(items) == 0 {
				continue
			}
			if tributo.IsDelinquent(items) {
				out.Delinquents++
			}
			for _, it := range items {
				out.TotalOutstanding = out.TotalOutstanding.Add(it.Amount)
				key := string(it.TaxType)
				out.ByTaxType[key] = out.ByTaxType[key].Add(it.Amount)
			}
		}
		if len(page) < pageSize {
			break
		}
	}
	return out, nil
}

// PazYSalvo verifica que el contribuyente esté al día. Con cualquier
// obligación vigente devuelve ErrOutstandingDebt: el certificado solo se
// emite con deuda cero.
func (uc *DebtUseCase) PazYSalvo(taxpayerID string) (*dto.DebtSummaryResponse, error) {
	summary, err := uc.DebtsFor(taxpayerID)
	if err != nil {
		return nil, err
	}
	if summary.Total.IsPositive() || len(summary.Items) > 0 {
		return nil, domain.ErrOutstandingDebt
	}
	return summary, nil
}

func (uc *DebtUseCase) rates() (*entity.TaxConfig, error) {
	cfg, err := uc.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = entity.DefaultTaxConfig()
	}
	return cfg, nil
}
