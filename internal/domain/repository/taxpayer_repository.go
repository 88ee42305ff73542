package repository

import "github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"

// TaxpayerRepository define el puerto de persistencia para Taxpayer.
// La actualización es reemplazo completo del registro (last-write-wins):
// no existe campo de versión y ediciones concurrentes las gana la última.
type TaxpayerRepository interface {
	Create(tp *entity.Taxpayer) error
	GetByID(id string) (*entity.Taxpayer, error)
	GetByDocID(docID string) (*entity.Taxpayer, error)
	List(limit, offset int) ([]*entity.Taxpayer, error)
	// SearchByName busca por nombre con ILIKE (el cruce sin acentos lo hace
	// el caso de uso sobre los candidatos).
	SearchByName(pattern string, limit int) ([]*entity.Taxpayer, error)
	Update(tp *entity.Taxpayer) error
	// NextNumber reserva el siguiente número de contribuyente de la secuencia.
	NextNumber() (int, error)
}
