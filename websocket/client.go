package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/gorilla/websocket"
)

// Параметры обслуживания соединения
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

// SiteSelection представляет интерактивный выбор точки отбора на карте
type SiteSelection struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Bin string  `json:"bin"`
}

// selectionResponse содержит распределения базальных гаплогрупп
// для выбранной точки отбора и ее бина
type selectionResponse struct {
	Type     string                   `json:"type"`
	Lat      float64                  `json:"lat"`
	Lon      float64                  `json:"lon"`
	Bin      string                   `json:"bin"`
	YShares  []models.HaplogroupShare `json:"y_shares"`
	MTShares []models.HaplogroupShare `json:"mt_shares"`
	BinY     []models.HaplogroupShare `json:"bin_y_shares"`
	BinMT    []models.HaplogroupShare `json:"bin_mt_shares"`
	Found    bool                     `json:"found"`
}

// Client представляет одно WebSocket подключение карты
type Client struct {
	manager *Manager
	conn    *websocket.Conn
	send    chan []byte
}

// readPump читает сообщения клиента: каждое сообщение интерпретируется
// как выбор точки отбора, в ответ отправляются распределения
func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ Неожиданное закрытие соединения: %v", err)
			}
			break
		}

		var selection SiteSelection
		if err := json.Unmarshal(message, &selection); err != nil {
			log.Printf("⚠️ Некорректное сообщение выбора точки: %v", err)
			continue
		}

		c.sendSelection(selection)
	}
}

// sendSelection формирует и отправляет ответ на выбор точки отбора
func (c *Client) sendSelection(selection SiteSelection) {
	response := selectionResponse{
		Type: "site_distribution",
		Lat:  selection.Lat,
		Lon:  selection.Lon,
		Bin:  selection.Bin,
	}

	if row := c.manager.store.FindSiteRow(selection.Lat, selection.Lon, selection.Bin); row != nil {
		response.Found = true
		response.YShares = models.SharesFromCounts(row.YCounts)
		response.MTShares = models.SharesFromCounts(row.MTCounts)
	}

	if binRow := c.manager.store.FindBinRow(selection.Bin); binRow != nil {
		response.BinY = models.SharesFromCounts(binRow.YCounts)
		response.BinMT = models.SharesFromCounts(binRow.MTCounts)
	}

	payload, err := json.Marshal(response)
	if err != nil {
		log.Printf("❌ Ошибка при сериализации ответа: %v", err)
		return
	}

	select {
	case c.send <- payload:
	default:
		log.Printf("⚠️ Буфер отправки клиента переполнен, ответ отброшен")
	}
}

// writePump пишет сообщения из канала отправки в соединение
// и поддерживает его живым периодическими ping-сообщениями
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
