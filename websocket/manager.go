package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/gorilla/websocket"
)

// Настройка WebSocket соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Разрешаем подключения с любого источника
	},
}

// Manager управляет активными WebSocket подключениями карты:
// регистрирует клиентов, рассылает уведомления об обновлении результатов
// и отвечает на интерактивный выбор точки отбора
type Manager struct {
	store      *models.ResultStore
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewManager создает новый экземпляр Manager
func NewManager(store *models.ResultStore) *Manager {
	return &Manager{
		store:      store,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
	}
}

// Run запускает основной цикл обработки подключений.
// Должен выполняться в отдельной горутине.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.clients[client] = true
			log.Printf("✅ Новое подключение к карте. Всего клиентов: %d", len(m.clients))

		case client := <-m.unregister:
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
				log.Printf("👋 Клиент отключился. Всего клиентов: %d", len(m.clients))
			}

		case message := <-m.broadcast:
			for client := range m.clients {
				select {
				case client.send <- message:
				default:
					// Клиент не успевает читать, отключаем его
					delete(m.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// NotifyUpdated рассылает всем клиентам уведомление об обновлении
// частотных таблиц
func (m *Manager) NotifyUpdated() {
	payload, err := json.Marshal(map[string]string{"type": "results_updated"})
	if err != nil {
		log.Printf("❌ Ошибка при сериализации уведомления: %v", err)
		return
	}
	m.broadcast <- payload
}

// HandleConnections обрабатывает входящие WebSocket подключения
func (m *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Ошибка при обновлении соединения до WebSocket: %v", err)
		return
	}

	client := &Client{
		manager: m,
		conn:    conn,
		send:    make(chan []byte, 16),
	}

	m.register <- client

	go client.writePump()
	go client.readPump()
}
