package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// ConnectOLAP устанавливает подключение к OLAP базе данных,
// в которую загружаются частотные таблицы
func ConnectOLAP(config ETLConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		config.OLAPConfig.User,
		config.OLAPConfig.Password,
		config.OLAPConfig.Host,
		config.OLAPConfig.Port,
		config.OLAPConfig.DBName,
	)

	db, err := sql.Open(config.OLAPConfig.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к OLAP базе данных: %w", err)
	}

	// Настройка параметров подключения
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось установить соединение с OLAP базой данных: %w", err)
	}

	log.Println("Успешное подключение к OLAP базе данных")
	return db, nil
}

// CloseOLAP закрывает подключение к OLAP базе данных
func CloseOLAP(db *sql.DB) {
	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		log.Printf("Ошибка при закрытии соединения с OLAP базой данных: %v", err)
		return
	}

	log.Println("Соединение с OLAP базой данных закрыто")
}
