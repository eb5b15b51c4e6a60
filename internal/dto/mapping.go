package dto

import "ecommerce_api/internal/domain"

// ToCategoryDto projects a category
func ToCategoryDto(c domain.Category) CategoryDto {
	return CategoryDto{
		CategoryID: c.ID,
		Name:       c.Name,
		CreatedOn:  c.CreatedOn,
		UpdatedOn:  c.UpdatedOn,
	}
}

// ToCategoryDtos projects a slice of categories
func ToCategoryDtos(categories []domain.Category) []CategoryDto {
	out := make([]CategoryDto, len(categories))
	for i, c := range categories {
		out[i] = ToCategoryDto(c)
	}
	return out
}

// ToProductDto projects a product. CategoryName is only filled when the
// Category association was preloaded.
func ToProductDto(p domain.Product) ProductDto {
	return ProductDto{
		ProductID:    p.ProductID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		ImageURL:     p.ImageURL,
		SKU:          p.SKU,
		Stock:        p.Stock,
		CreatedOn:    p.CreatedOn,
		UpdatedOn:    p.UpdatedOn,
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
	}
}

// ToProductDtos projects a slice of products
func ToProductDtos(products []domain.Product) []ProductDto {
	out := make([]ProductDto, len(products))
	for i, p := range products {
		out[i] = ToProductDto(p)
	}
	return out
}

// ToUserDto projects a user for the admin listing
func ToUserDto(u domain.User) UserDto {
	return UserDto{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.PrimaryRole()}
}

// ToUserDtos projects a slice of users
func ToUserDtos(users []domain.User) []UserDto {
	out := make([]UserDto, len(users))
	for i, u := range users {
		out[i] = ToUserDto(u)
	}
	return out
}

// ToUserDataDto projects a user for registration and login responses
func ToUserDataDto(u domain.User) UserDataDto {
	return UserDataDto{ID: u.ID, Username: u.Username, Name: u.Name}
}
