package handler

<<<<<<< Conflict 1 of 1
%%%%%%% Changes from base to side #1
-	u, err := s.repo.Find(id)
+	u, err := s.repo.FindByID(ctx, id)
+++++++ Contents of side #2
	u, err := s.cache.Get(id)
>>>>>>> Conflict 1 of 1 ends
