package repository

import "werewolf-be/internal/storage"

type Repositories struct {
	Record RecordRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Record: NewRecordRepository(db),
	}
}
