package repository

import "context"

// TransactionManager ejecuta fn en una unidad de trabajo. Los repositorios la recuperan del contexto.
// Las llamadas anidadas reutilizan la transacción en curso.
type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}
