// Package offline implementa la cola durable de pagos pendientes de
// sincronizar: una lista JSON en disco bajo una llave de almacenamiento fija,
// leída al arrancar y reescrita tras cada enqueue/drenado.
//
// La cola es local al proceso; dos cajas offline pueden encolar pagos para la
// misma deuda y el doble pago se resuelve manualmente, no se deduplica aquí.
// Los ids los genera el cliente (UUID estable), de modo que el replay es
// idempotente: un pago que ya llegó al servidor se reconoce como duplicado.
package offline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// StorageKey es el nombre fijo del archivo de la cola.
const StorageKey = "pagos_pendientes.json"

// FileQueue es una cola FIFO durable respaldada por archivo.
type FileQueue struct {
	mu   sync.Mutex
	path string
	list []*entity.Transaction
}

// NewFileQueue abre (o crea) la cola bajo el directorio dado y carga las
// entradas pendientes de una sesión anterior.
func NewFileQueue(dir string) (*FileQueue, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de cola: %w", err)
	}
	q := &FileQueue{path: filepath.Join(dir, StorageKey)}
	if err := q.load(); err != nil {
		return nil, err
	}
	return q, nil
}

// Enqueue agrega el pago al final de la cola y persiste.
func (q *FileQueue) Enqueue(tx *entity.Transaction) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.list = append(q.list, tx)
	return q.persist()
}

// List devuelve una copia de las entradas pendientes en orden FIFO.
func (q *FileQueue) List() ([]*entity.Transaction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*entity.Transaction, len(q.list))
	copy(out, q.list)
	return out, nil
}

// Replace reescribe la cola con las entradas que siguen pendientes
// (las fallidas de un drenado parcial).
func (q *FileQueue) Replace(pending []*entity.Transaction) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.list = append([]*entity.Transaction(nil), pending...)
	return q.persist()
}

// Len devuelve la cantidad de entradas pendientes.
func (q *FileQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.list)
}

func (q *FileQueue) load() error {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			q.list = nil
			return nil
		}
		return fmt.Errorf("leer cola offline: %w", err)
	}
	if len(data) == 0 {
		q.list = nil
		return nil
	}
	if err := json.Unmarshal(data, &q.list); err != nil {
		return fmt.Errorf("decodificar cola offline: %w", err)
	}
	return nil
}

// persist escribe la lista completa de forma atómica (tmp + rename) para no
// dejar un archivo corrupto si el proceso muere a mitad de escritura.
func (q *FileQueue) persist() error {
	data, err := json.MarshalIndent(q.list, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar cola offline: %w", err)
	}
	tmp := q.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("escribir cola offline: %w", err)
	}
	if err := os.Rename(tmp, q.path); err != nil {
		return fmt.Errorf("renombrar cola offline: %w", err)
	}
	return nil
}
