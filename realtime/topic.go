package realtime

import "fmt"

// TopicKind adalah jenis room broadcast yang dikenal transport.
type TopicKind string

const (
	KindUser         TopicKind = "user"
	KindRestaurant   TopicKind = "restaurant"
	KindTable        TopicKind = "table"
	KindConversation TopicKind = "conversation"
	KindOrganization TopicKind = "organization"
)

// Topic mengidentifikasi satu room. Zero value berarti audiens global.
type Topic struct {
	Kind TopicKind
	ID   string
}

func (t Topic) IsGlobal() bool {
	return t.Kind == ""
}

// Room menghasilkan nama room dengan konvensi <kind>_<id>.
func (t Topic) Room() string {
	return fmt.Sprintf("%s_%s", t.Kind, t.ID)
}

func UserTopic(id string) Topic         { return Topic{Kind: KindUser, ID: id} }
func RestaurantTopic(id string) Topic   { return Topic{Kind: KindRestaurant, ID: id} }
func TableTopic(id string) Topic        { return Topic{Kind: KindTable, ID: id} }
func ConversationTopic(id string) Topic { return Topic{Kind: KindConversation, ID: id} }
func OrganizationTopic(id string) Topic { return Topic{Kind: KindOrganization, ID: id} }

// Emission adalah satu event bernama yang ditujukan ke satu topic
// (atau global bila Topic kosong).
type Emission struct {
	Topic Topic
	Event string
	Data  interface{}
}
