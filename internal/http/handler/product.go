package handler

import (
	"github.com/gofiber/fiber/v2"

	"sp3clock/internal/service"
)

// ListProducts returns stored SP3 products, newest first.
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Param		limit	query		int	false	"page size"	default(10)
//	@Param		offset	query		int	false	"offset"	default(0)
//	@Success	200		{object}	service.ProductListResult
//	@Failure	400		{object}	errorPayload
//	@Router		/products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, perr := pageParams(c)
		if perr != nil {
			return perr.write(c)
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeInternal(c, err)
		}
		return c.JSON(res)
	}
}

// UploadProduct stores an SP3 file sent as multipart field "file".
//
//	@Summary	Upload an SP3 product
//	@Tags		products
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"RefWWWWD.sp3"
//	@Success	201		{object}	model.Product
//	@Failure	400		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/products [post]
func UploadProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		p, err := svc.Upload(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return serviceError(c, err, "product")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// GetProduct returns one product.
//
//	@Summary	Get a product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"product id"
//	@Success	200	{object}	model.Product
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/products/{id} [get]
func GetProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := idParam(c)
		if perr != nil {
			return perr.write(c)
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err, "product")
		}
		return c.JSON(p)
	}
}

// DeleteProduct removes the stored object and its record.
//
//	@Summary	Delete a product
//	@Tags		products
//	@Param		id	path	string	true	"product id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/products/{id} [delete]
func DeleteProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := idParam(c)
		if perr != nil {
			return perr.write(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err, "product")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SyncArchive pulls new files from the remote archive.
//
//	@Summary	Sync the remote SP3 archive
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	service.SyncReport
//	@Failure	502	{object}	errorPayload
//	@Router		/sync [post]
func SyncArchive(svc service.SyncService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := svc.Sync(c.UserContext())
		if err != nil {
			return serviceError(c, err, "archive")
		}
		return c.JSON(report)
	}
}
