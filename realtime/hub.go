package realtime

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/utils"
)

// Event types
const (
	EventLaundryUpdate   = "laundry_update"
	EventPaymentUpdate   = "payment_update"
	EventBillUpdate      = "bill_update"
	EventNotification    = "notification"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi dashboard (admin/staff) untuk broadcast event.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient menambahkan connection ke set dengan role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient melepaskan connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastLaundryUpdate(order models.LaundryOrder) {
	broadcast(Message{Event: EventLaundryUpdate, Data: order})
}

func BroadcastPaymentUpdate(payment models.Payment) {
	broadcast(Message{Event: EventPaymentUpdate, Data: payment})
}

func BroadcastBillUpdate(bill models.Bill) {
	broadcast(Message{Event: EventBillUpdate, Data: bill})
}

func BroadcastNotification(notif models.Notification) {
	broadcast(Message{Event: EventNotification, Data: notif})
}

func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// broadcast mengirim message ke semua client; koneksi yang gagal dilepas.
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for conn := range hub.clients {
		if err := conn.WriteJSON(msg); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("websocket write failed: %v", err)
			}
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
