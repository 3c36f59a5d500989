package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/xitongsys/parquet-go/schema"
)

// Dataset names one exportable resource. It is also the output file stem.
type Dataset string

const (
	DatasetOrders        Dataset = "orders"
	DatasetRatings       Dataset = "ratings"
	DatasetNotifications Dataset = "notifications"
	DatasetUserRewards   Dataset = "user_rewards"
)

var Datasets = []Dataset{DatasetOrders, DatasetRatings, DatasetNotifications, DatasetUserRewards}

// Row is one flattened record. Columns and Values line up.
type Row interface {
	Columns() []string
	Values() []string
}

// OrderRow flattens an order; line items are folded into a count.
type OrderRow struct {
	ID             string  `json:"id" parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderNumber    string  `json:"orderNumber" parquet:"name=orderNumber,type=BYTE_ARRAY,convertedtype=UTF8"`
	CustomerID     string  `json:"customerId" parquet:"name=customerId,type=BYTE_ARRAY,convertedtype=UTF8"`
	CustomerName   string  `json:"customerName" parquet:"name=customerName,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantID   string  `json:"restaurantId" parquet:"name=restaurantId,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantName string  `json:"restaurantName" parquet:"name=restaurantName,type=BYTE_ARRAY,convertedtype=UTF8"`
	DriverID       string  `json:"driverId" parquet:"name=driverId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemCount      int32   `json:"itemCount" parquet:"name=itemCount,type=INT32"`
	Subtotal       float64 `json:"subtotal" parquet:"name=subtotal,type=DOUBLE"`
	DeliveryFee    float64 `json:"deliveryFee" parquet:"name=deliveryFee,type=DOUBLE"`
	Tax            float64 `json:"tax" parquet:"name=tax,type=DOUBLE"`
	Total          float64 `json:"total" parquet:"name=total,type=DOUBLE"`
	Status         string  `json:"status" parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	PaymentStatus  string  `json:"paymentStatus" parquet:"name=paymentStatus,type=BYTE_ARRAY,convertedtype=UTF8"`
	PaymentMethod  string  `json:"paymentMethod" parquet:"name=paymentMethod,type=BYTE_ARRAY,convertedtype=UTF8"`
	CreatedAt      int64   `json:"createdAt" parquet:"name=createdAt,type=INT64"`
}

func NewOrderRow(o models.Order) OrderRow {
	return OrderRow{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		CustomerName:   o.CustomerName,
		RestaurantID:   o.RestaurantID,
		RestaurantName: o.RestaurantName,
		DriverID:       o.DriverID,
		ItemCount:      int32(len(o.Items)),
		Subtotal:       o.Subtotal,
		DeliveryFee:    o.DeliveryFee,
		Tax:            o.Tax,
		Total:          o.Total,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		PaymentMethod:  string(o.PaymentMethod),
		CreatedAt:      o.CreatedAt.Unix(),
	}
}

func (OrderRow) Columns() []string {
	return []string{"id", "orderNumber", "customerId", "customerName", "restaurantId", "restaurantName",
		"driverId", "itemCount", "subtotal", "deliveryFee", "tax", "total", "status", "paymentStatus",
		"paymentMethod", "createdAt"}
}

func (r OrderRow) Values() []string {
	return []string{r.ID, r.OrderNumber, r.CustomerID, r.CustomerName, r.RestaurantID, r.RestaurantName,
		r.DriverID, strconv.Itoa(int(r.ItemCount)), money(r.Subtotal), money(r.DeliveryFee), money(r.Tax),
		money(r.Total), r.Status, r.PaymentStatus, r.PaymentMethod, unix(r.CreatedAt)}
}

type RatingRow struct {
	ID             string   `json:"id" parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	DriverID       string   `json:"driverId" parquet:"name=driverId,type=BYTE_ARRAY,convertedtype=UTF8"`
	DriverName     string   `json:"driverName" parquet:"name=driverName,type=BYTE_ARRAY,convertedtype=UTF8"`
	CustomerID     string   `json:"customerId" parquet:"name=customerId,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderID        string   `json:"orderId" parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Rating         float64  `json:"rating" parquet:"name=rating,type=DOUBLE"`
	Punctuality    *float64 `json:"punctuality,omitempty" parquet:"name=punctuality,type=DOUBLE,repetitiontype=OPTIONAL"`
	Communication  *float64 `json:"communication,omitempty" parquet:"name=communication,type=DOUBLE,repetitiontype=OPTIONAL"`
	ServiceQuality *float64 `json:"serviceQuality,omitempty" parquet:"name=serviceQuality,type=DOUBLE,repetitiontype=OPTIONAL"`
	Comment        string   `json:"comment" parquet:"name=comment,type=BYTE_ARRAY,convertedtype=UTF8"`
	IsHidden       bool     `json:"isHidden" parquet:"name=isHidden,type=BOOLEAN"`
	CreatedAt      int64    `json:"createdAt" parquet:"name=createdAt,type=INT64"`
}

func NewRatingRow(r models.DriverRating) RatingRow {
	return RatingRow{
		ID:             r.ID,
		DriverID:       r.Driver.ID,
		DriverName:     r.Driver.Name,
		CustomerID:     r.Customer.ID,
		OrderID:        r.Order.ID,
		Rating:         r.Rating,
		Punctuality:    r.Punctuality,
		Communication:  r.Communication,
		ServiceQuality: r.ServiceQuality,
		Comment:        r.Comment,
		IsHidden:       r.IsHidden,
		CreatedAt:      r.CreatedAt.Unix(),
	}
}

func (RatingRow) Columns() []string {
	return []string{"id", "driverId", "driverName", "customerId", "orderId", "rating", "punctuality",
		"communication", "serviceQuality", "comment", "isHidden", "createdAt"}
}

func (r RatingRow) Values() []string {
	return []string{r.ID, r.DriverID, r.DriverName, r.CustomerID, r.OrderID, score(&r.Rating),
		score(r.Punctuality), score(r.Communication), score(r.ServiceQuality), r.Comment,
		strconv.FormatBool(r.IsHidden), unix(r.CreatedAt)}
}

type NotificationRow struct {
	ID             string `json:"id" parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	Title          string `json:"title" parquet:"name=title,type=BYTE_ARRAY,convertedtype=UTF8"`
	Type           string `json:"type" parquet:"name=type,type=BYTE_ARRAY,convertedtype=UTF8"`
	Priority       string `json:"priority" parquet:"name=priority,type=BYTE_ARRAY,convertedtype=UTF8"`
	TargetAudience string `json:"targetAudience" parquet:"name=targetAudience,type=BYTE_ARRAY,convertedtype=UTF8"`
	Recipients     string `json:"recipients" parquet:"name=recipients,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status         string `json:"status" parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	Sent           int32  `json:"sent" parquet:"name=sent,type=INT32"`
	Delivered      int32  `json:"delivered" parquet:"name=delivered,type=INT32"`
	Failed         int32  `json:"failed" parquet:"name=failed,type=INT32"`
	Pending        int32  `json:"pending" parquet:"name=pending,type=INT32"`
	SentAt         *int64 `json:"sentAt,omitempty" parquet:"name=sentAt,type=INT64,repetitiontype=OPTIONAL"`
	CreatedAt      int64  `json:"createdAt" parquet:"name=createdAt,type=INT64"`
}

func NewNotificationRow(n models.Notification) NotificationRow {
	row := NotificationRow{
		ID:             n.ID,
		Title:          n.Title,
		Type:           string(n.Type),
		Priority:       string(n.Priority),
		TargetAudience: string(n.TargetAudience),
		Recipients:     strings.Join(n.RecipientIDs, ","),
		Status:         string(n.Status),
		Sent:           int32(n.Delivery.Sent),
		Delivered:      int32(n.Delivery.Delivered),
		Failed:         int32(n.Delivery.Failed),
		Pending:        int32(n.Delivery.Pending),
		CreatedAt:      n.CreatedAt.Unix(),
	}
	if n.SentAt != nil {
		sentAt := n.SentAt.Unix()
		row.SentAt = &sentAt
	}
	return row
}

func (NotificationRow) Columns() []string {
	return []string{"id", "title", "type", "priority", "targetAudience", "recipients", "status",
		"sent", "delivered", "failed", "pending", "sentAt", "createdAt"}
}

func (r NotificationRow) Values() []string {
	sentAt := ""
	if r.SentAt != nil {
		sentAt = unix(*r.SentAt)
	}
	return []string{r.ID, r.Title, r.Type, r.Priority, r.TargetAudience, r.Recipients, r.Status,
		strconv.Itoa(int(r.Sent)), strconv.Itoa(int(r.Delivered)), strconv.Itoa(int(r.Failed)),
		strconv.Itoa(int(r.Pending)), sentAt, unix(r.CreatedAt)}
}

type UserRewardRow struct {
	ID         string  `json:"id" parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	RewardID   string  `json:"rewardId" parquet:"name=rewardId,type=BYTE_ARRAY,convertedtype=UTF8"`
	RewardName string  `json:"rewardName" parquet:"name=rewardName,type=BYTE_ARRAY,convertedtype=UTF8"`
	RewardType string  `json:"rewardType" parquet:"name=rewardType,type=BYTE_ARRAY,convertedtype=UTF8"`
	Value      float64 `json:"value" parquet:"name=value,type=DOUBLE"`
	UserID     string  `json:"userId" parquet:"name=userId,type=BYTE_ARRAY,convertedtype=UTF8"`
	UserEmail  string  `json:"userEmail" parquet:"name=userEmail,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status     string  `json:"status" parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	UsedCount  int32   `json:"usedCount" parquet:"name=usedCount,type=INT32"`
	AssignedAt int64   `json:"assignedAt" parquet:"name=assignedAt,type=INT64"`
	ExpiresAt  *int64  `json:"expiresAt,omitempty" parquet:"name=expiresAt,type=INT64,repetitiontype=OPTIONAL"`
}

func NewUserRewardRow(u models.UserReward) UserRewardRow {
	row := UserRewardRow{
		ID:         u.ID,
		RewardID:   u.Reward.ID,
		RewardName: u.Reward.Name,
		RewardType: string(u.Reward.Type),
		Value:      u.Reward.Value,
		UserID:     u.User.ID,
		UserEmail:  u.User.Email,
		Status:     string(u.Status),
		UsedCount:  int32(u.UsedCount),
		AssignedAt: u.AssignedAt.Unix(),
	}
	if u.ExpiresAt != nil {
		expiresAt := u.ExpiresAt.Unix()
		row.ExpiresAt = &expiresAt
	}
	return row
}

func (UserRewardRow) Columns() []string {
	return []string{"id", "rewardId", "rewardName", "rewardType", "value", "userId", "userEmail",
		"status", "usedCount", "assignedAt", "expiresAt"}
}

func (r UserRewardRow) Values() []string {
	expiresAt := ""
	if r.ExpiresAt != nil {
		expiresAt = unix(*r.ExpiresAt)
	}
	return []string{r.ID, r.RewardID, r.RewardName, r.RewardType, money(r.Value), r.UserID, r.UserEmail,
		r.Status, strconv.Itoa(int(r.UsedCount)), unix(r.AssignedAt), expiresAt}
}

// rowTemplate returns a pointer to the zero row of a dataset; parquet
// schemas are derived from its tags.
func rowTemplate(dataset Dataset) (any, error) {
	switch dataset {
	case DatasetOrders:
		return new(OrderRow), nil
	case DatasetRatings:
		return new(RatingRow), nil
	case DatasetNotifications:
		return new(NotificationRow), nil
	case DatasetUserRewards:
		return new(UserRewardRow), nil
	}
	return nil, fmt.Errorf("unknown dataset: %s", dataset)
}

// Schema returns the parquet schema of a dataset's rows.
func Schema(dataset Dataset) (*schema.SchemaHandler, error) {
	tmpl, err := rowTemplate(dataset)
	if err != nil {
		return nil, err
	}
	sh, err := schema.NewSchemaHandlerFromStruct(tmpl)
	if err != nil {
		return nil, fmt.Errorf("error creating schema for %s: %w", dataset, err)
	}
	return sh, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func score(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func unix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}
