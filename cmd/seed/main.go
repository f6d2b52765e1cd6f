package main

import (
	"context"
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/app"
	"petcare/internal/config"
	"petcare/internal/database"
	"petcare/internal/domain"
	"petcare/internal/modules/auth"
	"petcare/internal/modules/catalog"
	"petcare/internal/modules/inventory"
	"petcare/internal/modules/mix"
	"petcare/internal/modules/owner"
	"petcare/internal/modules/staff"
	"petcare/internal/pkg/jwt"
	"petcare/internal/pkg/logger"
	"petcare/internal/policy"
)

// Seed wipes the clinic tables and loads a small demo dataset.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	zl.Info("cleaning old data")
	if err := wipe(db); err != nil {
		zl.Fatal("cleanup failed", zap.Error(err))
	}

	svc := app.NewServices(db, jwt.New(cfg.JWTSecret, cfg.JWTTTL), zl)
	ctx := policy.WithRole(context.Background(), domain.RoleMaster)
	if err := seed(ctx, svc, zl); err != nil {
		zl.Fatal("seed failed", zap.Error(err))
	}
	zl.Info("seed completed")
}

// wipe deletes children before parents to keep foreign keys happy.
func wipe(db *gorm.DB) error {
	tables := []string{
		"mix_usages", "product_usages", "daily_charges", "visits", "examinations",
		"deposits", "payments", "booking_items", "booking_pets", "bookings",
		"inventories", "mix_components", "mix_products", "products",
		"service_types", "services", "pets", "owners", "accounts", "staff", "expenses",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			return err
		}
	}
	return nil
}

func seed(ctx context.Context, svc *app.Services, zl *zap.Logger) error {
	doctor, err := svc.Staff.Create(ctx, staff.CreateStaffRequest{Name: "Dr. Aliya Nurlanova", JobRole: string(domain.JobDoctor)})
	if err != nil {
		return err
	}
	if _, err := svc.Staff.Create(ctx, staff.CreateStaffRequest{Name: "Daniyar Seitkali", JobRole: string(domain.JobParavet)}); err != nil {
		return err
	}

	accounts := []auth.CreateAccountRequest{
		{Username: "master", Password: "master12345", Role: string(domain.RoleMaster)},
		{Username: "supervisor", Password: "super12345", Role: string(domain.RoleSupervisor)},
		{Username: "doctor", Password: "doctor12345", Role: string(domain.RoleStaff), StaffID: &doctor.ID},
	}
	for _, req := range accounts {
		if _, err := svc.Auth.CreateAccount(ctx, req); err != nil {
			return err
		}
		zl.Info("account created", zap.String("username", req.Username), zap.String("role", req.Role))
	}

	clinic, err := svc.Catalog.CreateService(ctx, catalog.CreateServiceRequest{Name: "Clinic"})
	if err != nil {
		return err
	}
	hotel, err := svc.Catalog.CreateService(ctx, catalog.CreateServiceRequest{Name: "Inpatient care"})
	if err != nil {
		return err
	}

	perDay := "120000"
	types := []catalog.CreateServiceTypeRequest{
		{ServiceID: clinic.ID, Name: "Consultation", Price: "25000"},
		{ServiceID: clinic.ID, Name: "Vaccination", Price: "15000"},
		{ServiceID: hotel.ID, Name: "Inpatient ward", Price: "0", PricePerDay: &perDay},
	}
	for _, req := range types {
		if _, err := svc.Catalog.CreateServiceType(ctx, req); err != nil {
			return err
		}
	}

	mg, content := "mg", "500"
	ml, vial := "ml", "10"
	products := []struct {
		req   catalog.CreateProductRequest
		stock string
	}{
		{catalog.CreateProductRequest{Name: "Amoxicillin 500 mg", Unit: "tablet", Price: "1200", UnitContentAmount: &content, UnitContentName: &mg}, "200"},
		{catalog.CreateProductRequest{Name: "Ringer lactate 10 ml", Unit: "vial", Price: "900", UnitContentAmount: &vial, UnitContentName: &ml}, "150"},
		{catalog.CreateProductRequest{Name: "Syringe 5 ml", Unit: "pcs", Price: "150"}, "500"},
	}
	created := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		prod, err := svc.Catalog.CreateProduct(ctx, p.req)
		if err != nil {
			return err
		}
		if _, err := svc.Inventory.Add(ctx, inventory.AddEntryRequest{
			ProductID: prod.ID,
			Quantity:  p.stock,
			Type:      string(domain.InventoryIn),
		}); err != nil {
			return err
		}
		created = append(created, prod)
	}

	drip := "Standard rehydration drip"
	if _, err := svc.Mix.Create(ctx, mix.CreateMixRequest{
		Name:        "IV drip",
		Description: &drip,
		Components: []mix.CreateComponentRequest{
			{ProductID: created[1].ID, QuantityBase: "20"},
			{ProductID: created[2].ID, QuantityBase: "1"},
		},
	}); err != nil {
		return err
	}

	owners := []struct {
		owner owner.CreateOwnerRequest
		pets  []owner.CreatePetRequest
	}{
		{
			owner: owner.CreateOwnerRequest{Name: "Asel Karimova", Phone: "+7 777 123 4567"},
			pets:  []owner.CreatePetRequest{{Name: "Barsik", Species: "cat"}, {Name: "Murka", Species: "cat"}},
		},
		{
			owner: owner.CreateOwnerRequest{Name: "Bekzat Omarov", Phone: "+7 701 555 0101"},
			pets:  []owner.CreatePetRequest{{Name: "Rex", Species: "dog"}},
		},
	}
	for _, o := range owners {
		own, err := svc.Owner.Create(ctx, o.owner)
		if err != nil {
			return err
		}
		for _, p := range o.pets {
			if _, err := svc.Owner.CreatePet(ctx, own.ID, p); err != nil {
				return err
			}
		}
	}
	return nil
}
