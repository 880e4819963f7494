package services

import (
	"github.com/yeremiapane/restaurant-realtime/models"
	"github.com/yeremiapane/restaurant-realtime/realtime"
)

// Event names untuk handler khusus per tabel
const (
	EventNewNotification          = "new_notification"
	EventRestaurantNotification   = "restaurant_notification"
	EventOrganizationNotification = "organization_notification"
	EventNotificationUpdated      = "notification_updated"
	EventNotificationRead         = "notification_read"
	EventNotificationArchived     = "notification_archived"
	EventNotificationDeleted      = "notification_deleted"

	EventNewOrder           = "new_order"
	EventOrderCreated       = "order_created"
	EventOrderStatusUpdated = "order_status_updated"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"

	EventInventoryUpdated     = "inventory_updated"
	EventLowStockAlert        = "low_stock_alert"
	EventInventoryItemAdded   = "inventory_item_added"
	EventInventoryItemRemoved = "inventory_item_removed"

	EventNewMessage     = "new_message"
	EventMessageRead    = "message_read"
	EventMessageDeleted = "message_deleted"

	EventNewReservation           = "new_reservation"
	EventReservationCreated       = "reservation_created"
	EventReservationStatusChanged = "reservation_status_changed"
	EventReservationCancelled     = "reservation_cancelled"

	EventPaymentCreated       = "payment_created"
	EventPaymentStatusChanged = "payment_status_changed"
	EventPaymentDeleted       = "payment_deleted"

	EventMenuItemAdded   = "menu_item_added"
	EventMenuItemUpdated = "menu_item_updated"
	EventMenuItemRemoved = "menu_item_removed"

	EventUserCreated = "user_created"
	EventUserUpdated = "user_updated"
	EventUserDeleted = "user_deleted"

	EventRestaurantCreated = "restaurant_created"
	EventRestaurantUpdated = "restaurant_updated"
	EventRestaurantDeleted = "restaurant_deleted"
)

// notificationsHandler -> event spesifik untuk baris notifications.
type notificationsHandler struct{}

func (notificationsHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if rec == nil {
			return nil
		}
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventNewNotification, Data: rec})
		}
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventRestaurantNotification, Data: rec})
		}
		if id, ok := recordID(rec, "organization_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.OrganizationTopic(id), Event: EventOrganizationNotification, Data: rec})
		}

	case models.EventUpdate:
		rec := event.NewRecord
		if rec == nil {
			return nil
		}
		owner, hasOwner := recordID(rec, "user_id")
		if !hasOwner {
			return nil
		}
		out = append(out, realtime.Emission{Topic: realtime.UserTopic(owner), Event: EventNotificationUpdated, Data: rec})

		oldStatus, _ := strField(event.OldRecord, "status")
		newStatus, _ := strField(rec, "status")
		if oldStatus == models.StatusUnread && newStatus == models.StatusRead {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(owner), Event: EventNotificationRead, Data: rec})
		}
		if newStatus == models.StatusArchived && oldStatus != models.StatusArchived {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(owner), Event: EventNotificationArchived, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if rec == nil {
			return nil
		}
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventNotificationDeleted, Data: rec})
		}
	}

	return out
}

// ordersHandler -> restoran dan customer mendapat event dengan nama berbeda.
type ordersHandler struct{}

func (ordersHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if rec == nil {
			return nil
		}
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventNewOrder, Data: rec})
		}
		if id, ok := recordID(rec, "customer_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventOrderCreated, Data: rec})
		}

	case models.EventUpdate:
		// Hanya perubahan status yang disiarkan; update lain no-op
		if !fieldChanged(event, "status") {
			return nil
		}
		rec := event.NewRecord
		if id, ok := recordID(rec, "customer_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventOrderStatusUpdated, Data: rec})
		}
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventOrderStatusChanged, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if rec == nil {
			return nil
		}
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventOrderDeleted, Data: rec})
		}
	}

	return out
}

// inventoryItemsHandler -> emisi stok, termasuk alert di bawah ambang minimum.
type inventoryItemsHandler struct{}

func (inventoryItemsHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventInventoryItemAdded, Data: rec})
		}

	case models.EventUpdate:
		if !fieldChanged(event, "current_stock") {
			return nil
		}
		rec := event.NewRecord
		id, ok := recordID(rec, "restaurant_id")
		if !ok {
			return nil
		}
		out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventInventoryUpdated, Data: rec})

		stock, hasStock := numField(rec, "current_stock")
		minimum, hasMin := numField(rec, "minimum_stock")
		if hasStock && hasMin && stock <= minimum {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventLowStockAlert, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventInventoryItemRemoved, Data: rec})
		}
	}

	return out
}

// messagesHandler -> room percakapan plus penerima.
type messagesHandler struct{}

func (messagesHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if id, ok := recordID(rec, "conversation_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.ConversationTopic(id), Event: EventNewMessage, Data: rec})
		}
		if id, ok := recordID(rec, "recipient_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventNewMessage, Data: rec})
		}

	case models.EventUpdate:
		if !fieldChanged(event, "is_read") {
			return nil
		}
		rec := event.NewRecord
		if id, ok := recordID(rec, "conversation_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.ConversationTopic(id), Event: EventMessageRead, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if id, ok := recordID(rec, "conversation_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.ConversationTopic(id), Event: EventMessageDeleted, Data: rec})
		}
	}

	return out
}

// reservationsHandler
type reservationsHandler struct{}

func (reservationsHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventNewReservation, Data: rec})
		}
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventReservationCreated, Data: rec})
		}

	case models.EventUpdate:
		if !fieldChanged(event, "status") {
			return nil
		}
		rec := event.NewRecord
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventReservationStatusChanged, Data: rec})
		}
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventReservationStatusChanged, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventReservationCancelled, Data: rec})
		}
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventReservationCancelled, Data: rec})
		}
	}

	return out
}

// paymentsHandler
type paymentsHandler struct{}

func (paymentsHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventPaymentCreated, Data: rec})
		}
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventPaymentCreated, Data: rec})
		}

	case models.EventUpdate:
		if !fieldChanged(event, "status") {
			return nil
		}
		rec := event.NewRecord
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventPaymentStatusChanged, Data: rec})
		}
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventPaymentStatusChanged, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if rec == nil {
			return nil
		}
		if id, ok := recordID(rec, "user_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventPaymentDeleted, Data: rec})
		}
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventPaymentDeleted, Data: rec})
		}
	}

	return out
}

// menuItemsHandler -> hanya perubahan field yang relevan bagi tampilan menu.
type menuItemsHandler struct{}

func (menuItemsHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventMenuItemAdded, Data: rec})
		}

	case models.EventUpdate:
		if !anyFieldChanged(event, "is_available", "price", "name", "description") {
			return nil
		}
		rec := event.NewRecord
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventMenuItemUpdated, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventMenuItemRemoved, Data: rec})
		}
	}

	return out
}

// usersHandler -> perubahan profil ke room user yang bersangkutan.
type usersHandler struct{}

func (usersHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if id, ok := recordID(rec, "organization_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.OrganizationTopic(id), Event: EventUserCreated, Data: rec})
		} else if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventUserCreated, Data: rec})
		}

	case models.EventUpdate:
		if !anyFieldChanged(event, "name", "email", "avatar_url", "role", "status") {
			return nil
		}
		rec := event.NewRecord
		if id, ok := recordID(rec, "id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.UserTopic(id), Event: EventUserUpdated, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if id, ok := recordID(rec, "organization_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.OrganizationTopic(id), Event: EventUserDeleted, Data: rec})
		} else if id, ok := recordID(rec, "restaurant_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventUserDeleted, Data: rec})
		}
	}

	return out
}

// restaurantsHandler
type restaurantsHandler struct{}

func (restaurantsHandler) Handle(event models.ChangeEvent) []realtime.Emission {
	var out []realtime.Emission

	switch event.EventType {
	case models.EventInsert:
		rec := event.NewRecord
		if id, ok := recordID(rec, "organization_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.OrganizationTopic(id), Event: EventRestaurantCreated, Data: rec})
		}

	case models.EventUpdate:
		if !anyFieldChanged(event, "name", "status", "is_open", "opening_hours") {
			return nil
		}
		rec := event.NewRecord
		if id, ok := recordID(rec, "id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.RestaurantTopic(id), Event: EventRestaurantUpdated, Data: rec})
		}

	case models.EventDelete:
		rec := event.OldRecord
		if id, ok := recordID(rec, "organization_id"); ok {
			out = append(out, realtime.Emission{Topic: realtime.OrganizationTopic(id), Event: EventRestaurantDeleted, Data: rec})
		}
	}

	return out
}
