package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-realtime/utils"
)

type emittedEvent struct {
	Room  string
	Event string
	Data  interface{}
}

type fakeEmitter struct {
	global []emittedEvent
	rooms  []emittedEvent
}

func (f *fakeEmitter) EmitGlobal(event string, data interface{}) {
	f.global = append(f.global, emittedEvent{Event: event, Data: data})
}

func (f *fakeEmitter) EmitToRoom(room, event string, data interface{}) {
	f.rooms = append(f.rooms, emittedEvent{Room: room, Event: event, Data: data})
}

func (f *fakeEmitter) roomEvents() []string {
	var out []string
	for _, e := range f.rooms {
		out = append(out, e.Room+":"+e.Event)
	}
	return out
}

func newTestDispatcher() (*Dispatcher, *fakeEmitter) {
	utils.InitLogger()
	emitter := &fakeEmitter{}
	return NewDispatcher(emitter), emitter
}

func TestDispatchAlwaysEmitsGlobal(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("blogs", "INSERT", map[string]interface{}{"id": float64(3), "title": "hello"}, nil)

	assert.Len(t, emitter.global, 1)
	assert.Equal(t, "blogs_insert", emitter.global[0].Event)

	payload, ok := emitter.global[0].Data.(GlobalPayload)
	assert.True(t, ok)
	assert.Equal(t, "INSERT", payload.EventType)
	assert.Equal(t, "blogs", payload.Table)
	assert.NotNil(t, payload.Data)
}

func TestDispatchDeleteUsesOldRecord(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("blogs", "DELETE", nil, map[string]interface{}{"id": float64(3)})

	assert.Equal(t, "blogs_delete", emitter.global[0].Event)
	payload := emitter.global[0].Data.(GlobalPayload)
	assert.Equal(t, float64(3), payload.Data["id"])
}

func TestGenericHandlerRoutesToUserRoom(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("blogs", "INSERT", map[string]interface{}{
		"id":      float64(1),
		"user_id": float64(7),
	}, nil)

	assert.Equal(t, []string{"user_7:blog_change"}, emitter.roomEvents())
}

func TestGenericHandlerOrganizationFallback(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("staff_members", "UPDATE",
		map[string]interface{}{"id": float64(1), "organization_id": float64(4), "shift": "late"},
		map[string]interface{}{"id": float64(1), "organization_id": float64(4), "shift": "early"},
	)

	assert.Equal(t, []string{"organization_4:staff_member_change"}, emitter.roomEvents())
}

func TestGenericHandlerNoForeignKeysGlobalOnly(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("promotions", "INSERT", map[string]interface{}{"id": float64(9), "code": "SUMMER"}, nil)

	assert.Len(t, emitter.global, 1)
	assert.Empty(t, emitter.rooms)
}

func TestConversationChangeNotifiesBothParticipants(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("conversations", "UPDATE",
		map[string]interface{}{"id": float64(5), "customer_id": float64(1), "staff_id": float64(2), "restaurant_id": float64(3), "updated_at": "b"},
		map[string]interface{}{"id": float64(5), "customer_id": float64(1), "staff_id": float64(2), "restaurant_id": float64(3), "updated_at": "a"},
	)

	assert.ElementsMatch(t, []string{
		"user_1:conversation_change",
		"user_2:conversation_change",
	}, emitter.roomEvents())
}

func TestTableOrderRoutesToTableRoom(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("table_orders", "INSERT", map[string]interface{}{
		"id":       float64(1),
		"table_id": float64(12),
		"order_id": float64(30),
	}, nil)

	assert.Equal(t, []string{"table_12:table_order_change"}, emitter.roomEvents())
}

func TestOrderInsertNotifiesRestaurantAndCustomer(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("orders", "INSERT", map[string]interface{}{
		"id":            float64(10),
		"customer_id":   float64(4),
		"restaurant_id": float64(2),
		"status":        "pending",
	}, nil)

	assert.ElementsMatch(t, []string{
		"restaurant_2:new_order",
		"user_4:order_created",
	}, emitter.roomEvents())
}

func TestOrderUpdateWithoutStatusChangeIsNoOp(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(10), "customer_id": float64(4), "restaurant_id": float64(2), "status": "preparing", "total_amount": float64(10)}
	newRec := map[string]interface{}{"id": float64(10), "customer_id": float64(4), "restaurant_id": float64(2), "status": "preparing", "total_amount": float64(12)}

	d.Dispatch("orders", "UPDATE", newRec, oldRec)

	// Hanya emisi global; tidak ada event status
	assert.Len(t, emitter.global, 1)
	assert.Empty(t, emitter.rooms)
}

func TestOrderStatusChangeNotifiesBothSides(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(10), "customer_id": float64(4), "restaurant_id": float64(2), "status": "preparing"}
	newRec := map[string]interface{}{"id": float64(10), "customer_id": float64(4), "restaurant_id": float64(2), "status": "ready"}

	d.Dispatch("orders", "UPDATE", newRec, oldRec)

	assert.ElementsMatch(t, []string{
		"user_4:order_status_updated",
		"restaurant_2:order_status_changed",
	}, emitter.roomEvents())
}

func TestOrderInsertWithoutCustomerIDDegrades(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("orders", "INSERT", map[string]interface{}{
		"id":            float64(10),
		"restaurant_id": float64(2),
		"status":        "pending",
	}, nil)

	assert.Len(t, emitter.global, 1)
	assert.Equal(t, []string{"restaurant_2:new_order"}, emitter.roomEvents())
}

func TestNotificationInsertFanout(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("notifications", "INSERT", map[string]interface{}{
		"id":              float64(1),
		"user_id":         float64(8),
		"restaurant_id":   float64(3),
		"organization_id": float64(5),
	}, nil)

	assert.ElementsMatch(t, []string{
		"user_8:new_notification",
		"restaurant_3:restaurant_notification",
		"organization_5:organization_notification",
	}, emitter.roomEvents())
}

func TestNotificationReadTransition(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "user_id": float64(8), "status": "unread"}
	newRec := map[string]interface{}{"id": float64(1), "user_id": float64(8), "status": "read"}

	d.Dispatch("notifications", "UPDATE", newRec, oldRec)

	assert.Equal(t, []string{
		"user_8:notification_updated",
		"user_8:notification_read",
	}, emitter.roomEvents())
}

func TestNotificationArchivedTransition(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "user_id": float64(8), "status": "read"}
	newRec := map[string]interface{}{"id": float64(1), "user_id": float64(8), "status": "archived"}

	d.Dispatch("notifications", "UPDATE", newRec, oldRec)

	assert.Equal(t, []string{
		"user_8:notification_updated",
		"user_8:notification_archived",
	}, emitter.roomEvents())
}

func TestNotificationUpdateWithoutTransition(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "user_id": float64(8), "status": "read"}
	newRec := map[string]interface{}{"id": float64(1), "user_id": float64(8), "status": "read"}

	d.Dispatch("notifications", "UPDATE", newRec, oldRec)

	assert.Equal(t, []string{"user_8:notification_updated"}, emitter.roomEvents())
}

func TestNotificationDelete(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("notifications", "DELETE", nil, map[string]interface{}{
		"id":      float64(1),
		"user_id": float64(8),
	})

	assert.Equal(t, []string{"user_8:notification_deleted"}, emitter.roomEvents())
}

func TestInventoryLowStockAlert(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "restaurant_id": float64(6), "current_stock": float64(5), "minimum_stock": float64(10)}
	newRec := map[string]interface{}{"id": float64(1), "restaurant_id": float64(6), "current_stock": float64(3), "minimum_stock": float64(10)}

	d.Dispatch("inventory_items", "UPDATE", newRec, oldRec)

	assert.Equal(t, []string{
		"restaurant_6:inventory_updated",
		"restaurant_6:low_stock_alert",
	}, emitter.roomEvents())
}

func TestInventoryRestockNoAlert(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "restaurant_id": float64(6), "current_stock": float64(3), "minimum_stock": float64(10)}
	newRec := map[string]interface{}{"id": float64(1), "restaurant_id": float64(6), "current_stock": float64(20), "minimum_stock": float64(10)}

	d.Dispatch("inventory_items", "UPDATE", newRec, oldRec)

	assert.Equal(t, []string{"restaurant_6:inventory_updated"}, emitter.roomEvents())
}

func TestInventoryUpdateWithoutStockChange(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "restaurant_id": float64(6), "current_stock": float64(3), "minimum_stock": float64(10), "name": "Flour"}
	newRec := map[string]interface{}{"id": float64(1), "restaurant_id": float64(6), "current_stock": float64(3), "minimum_stock": float64(10), "name": "Bread flour"}

	d.Dispatch("inventory_items", "UPDATE", newRec, oldRec)

	assert.Empty(t, emitter.rooms)
}

func TestMessageInsertNotifiesConversationAndRecipient(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("messages", "INSERT", map[string]interface{}{
		"id":              float64(1),
		"conversation_id": float64(4),
		"sender_id":       float64(2),
		"recipient_id":    float64(3),
	}, nil)

	assert.ElementsMatch(t, []string{
		"conversation_4:new_message",
		"user_3:new_message",
	}, emitter.roomEvents())
}

func TestMessageReadFlagChange(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "conversation_id": float64(4), "is_read": false}
	newRec := map[string]interface{}{"id": float64(1), "conversation_id": float64(4), "is_read": true}

	d.Dispatch("messages", "UPDATE", newRec, oldRec)

	assert.Equal(t, []string{"conversation_4:message_read"}, emitter.roomEvents())
}

func TestMenuItemUpdateOnlyRelevantFields(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "restaurant_id": float64(2), "price": float64(10), "updated_at": "a"}
	newRec := map[string]interface{}{"id": float64(1), "restaurant_id": float64(2), "price": float64(10), "updated_at": "b"}

	d.Dispatch("menu_items", "UPDATE", newRec, oldRec)
	assert.Empty(t, emitter.rooms)

	newRec["price"] = float64(12)
	d.Dispatch("menu_items", "UPDATE", newRec, oldRec)
	assert.Equal(t, []string{"restaurant_2:menu_item_updated"}, emitter.roomEvents())
}

func TestChangedFields(t *testing.T) {
	oldRec := map[string]interface{}{"a": float64(1), "b": "x", "c": true}
	newRec := map[string]interface{}{"a": float64(2), "b": "x", "d": "new"}

	changed := changedFields(oldRec, newRec)
	assert.ElementsMatch(t, []string{"a", "c", "d"}, changed)
}

func TestPaymentInsertNotifiesUserAndRestaurant(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("payments", "INSERT", map[string]interface{}{
		"id":            float64(1),
		"user_id":       float64(4),
		"restaurant_id": float64(2),
		"amount":        float64(150000),
	}, nil)

	assert.ElementsMatch(t, []string{
		"user_4:payment_created",
		"restaurant_2:payment_created",
	}, emitter.roomEvents())
}

func TestPaymentUpdateOnlyOnStatusChange(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "user_id": float64(4), "restaurant_id": float64(2), "status": "pending", "updated_at": "a"}
	newRec := map[string]interface{}{"id": float64(1), "user_id": float64(4), "restaurant_id": float64(2), "status": "pending", "updated_at": "b"}

	d.Dispatch("payments", "UPDATE", newRec, oldRec)
	assert.Empty(t, emitter.rooms)

	newRec["status"] = "paid"
	d.Dispatch("payments", "UPDATE", newRec, oldRec)
	assert.ElementsMatch(t, []string{
		"user_4:payment_status_changed",
		"restaurant_2:payment_status_changed",
	}, emitter.roomEvents())
}

func TestPaymentDeleteNotifiesUserAndRestaurant(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("payments", "DELETE", nil, map[string]interface{}{
		"id":            float64(1),
		"user_id":       float64(4),
		"restaurant_id": float64(2),
	})

	assert.Equal(t, "payments_delete", emitter.global[0].Event)
	assert.ElementsMatch(t, []string{
		"user_4:payment_deleted",
		"restaurant_2:payment_deleted",
	}, emitter.roomEvents())
}

func TestReservationUpdateOnlyOnStatusChange(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(1), "user_id": float64(5), "restaurant_id": float64(2), "status": "pending", "party_size": float64(2)}
	newRec := map[string]interface{}{"id": float64(1), "user_id": float64(5), "restaurant_id": float64(2), "status": "pending", "party_size": float64(4)}

	d.Dispatch("reservations", "UPDATE", newRec, oldRec)
	assert.Empty(t, emitter.rooms)

	newRec["status"] = "confirmed"
	d.Dispatch("reservations", "UPDATE", newRec, oldRec)
	assert.ElementsMatch(t, []string{
		"restaurant_2:reservation_status_changed",
		"user_5:reservation_status_changed",
	}, emitter.roomEvents())
}

func TestReservationDeleteNotifiesBothRooms(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("reservations", "DELETE", nil, map[string]interface{}{
		"id":            float64(1),
		"user_id":       float64(5),
		"restaurant_id": float64(2),
	})

	assert.ElementsMatch(t, []string{
		"restaurant_2:reservation_cancelled",
		"user_5:reservation_cancelled",
	}, emitter.roomEvents())
}

func TestUserUpdateOnlyOnProfileFields(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(9), "name": "Ana", "email": "ana@example.com", "last_login": "a"}
	newRec := map[string]interface{}{"id": float64(9), "name": "Ana", "email": "ana@example.com", "last_login": "b"}

	d.Dispatch("users", "UPDATE", newRec, oldRec)
	assert.Empty(t, emitter.rooms)

	newRec["name"] = "Ana B"
	d.Dispatch("users", "UPDATE", newRec, oldRec)
	assert.Equal(t, []string{"user_9:user_updated"}, emitter.roomEvents())
}

func TestRestaurantUpdateOnlyOnRelevantFields(t *testing.T) {
	d, emitter := newTestDispatcher()

	oldRec := map[string]interface{}{"id": float64(2), "name": "Warung A", "is_open": true, "updated_at": "a"}
	newRec := map[string]interface{}{"id": float64(2), "name": "Warung A", "is_open": true, "updated_at": "b"}

	d.Dispatch("restaurants", "UPDATE", newRec, oldRec)
	assert.Empty(t, emitter.rooms)

	newRec["is_open"] = false
	d.Dispatch("restaurants", "UPDATE", newRec, oldRec)
	assert.Equal(t, []string{"restaurant_2:restaurant_updated"}, emitter.roomEvents())
}

func TestGenericHandlerUserTakesPriorityOverOrganization(t *testing.T) {
	d, emitter := newTestDispatcher()

	d.Dispatch("audit_logs", "INSERT", map[string]interface{}{
		"id":              float64(1),
		"user_id":         float64(7),
		"organization_id": float64(4),
	}, nil)

	assert.Equal(t, []string{"user_7:audit_log_change"}, emitter.roomEvents())
}
