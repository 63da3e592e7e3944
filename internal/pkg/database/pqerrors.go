package database

import (
	"errors"

	"github.com/lib/pq"
)

// Códigos SQLSTATE tratados pelos repositórios.
const (
	codeForeignKeyViolation       = "23503"
	codeUniqueViolation           = "23505"
	codeCheckViolation            = "23514"
	codeInvalidTextRepresentation = "22P02"
)

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}

// IsForeignKeyViolation indica que a linha referenciada não existe (ex.: produto ou venda removidos).
func IsForeignKeyViolation(err error) bool { return hasCode(err, codeForeignKeyViolation) }

// IsUniqueViolation indica chave duplicada.
func IsUniqueViolation(err error) bool { return hasCode(err, codeUniqueViolation) }

// IsCheckViolation indica que uma constraint CHECK rejeitou o valor (ex.: estoque negativo).
func IsCheckViolation(err error) bool { return hasCode(err, codeCheckViolation) }

// IsInvalidID indica um valor que não pôde ser convertido para a coluna (ex.: UUID malformado).
func IsInvalidID(err error) bool { return hasCode(err, codeInvalidTextRepresentation) }
